package view

// PresentationRules is the fixed stylesheet embedded in every document.
const PresentationRules = `
* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: 'Roboto', -apple-system, BlinkMacSystemFont, sans-serif;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    min-height: 100vh;
    padding: 20px;
}

.header {
    text-align: center;
    color: white;
    margin-bottom: 30px;
}

.header h1 {
    font-size: 2.5rem;
    margin-bottom: 10px;
    font-weight: 300;
}

.header p {
    font-size: 1.1rem;
    opacity: 0.9;
}

.dashboard {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(280px, 1fr));
    gap: 20px;
    max-width: 1200px;
    margin: 0 auto;
}

.card {
    background: rgba(255, 255, 255, 0.95);
    border-radius: 16px;
    padding: 24px;
    box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
    border: 1px solid rgba(255, 255, 255, 0.2);
    transition: all 0.3s ease;
}

.card:hover {
    transform: translateY(-5px);
    box-shadow: 0 12px 48px rgba(0, 0, 0, 0.15);
}

.card h3 {
    color: #2c3e50;
    margin-bottom: 16px;
    font-size: 1.3rem;
    font-weight: 500;
}

.card .centered {
    text-align: center;
    padding: 20px 0;
}

.card .muted {
    text-align: center;
    color: #7f8c8d;
}

.control-button {
    width: 100%;
    padding: 12px 20px;
    border: none;
    border-radius: 8px;
    font-size: 1rem;
    font-weight: 500;
    cursor: pointer;
    transition: all 0.2s ease;
    text-transform: uppercase;
    letter-spacing: 1px;
    color: white;
}

.control-button.on {
    background: linear-gradient(135deg, #4CAF50, #45a049);
}

.control-button.off {
    background: linear-gradient(135deg, #f44336, #d32f2f);
}

.control-button:hover {
    transform: scale(1.02);
    box-shadow: 0 4px 12px rgba(0, 0, 0, 0.2);
}

.sensor-value {
    font-size: 2rem;
    font-weight: 300;
    color: #3498db;
    text-align: center;
    margin: 16px 0;
}

.unit {
    font-size: 1rem;
    color: #7f8c8d;
    margin-left: 8px;
}

.status {
    display: inline-block;
    padding: 6px 12px;
    border-radius: 20px;
    font-size: 0.9rem;
    font-weight: 500;
    text-transform: uppercase;
    letter-spacing: 0.5px;
}

.status.on {
    background: #e8f5e8;
    color: #2e7d32;
}

.status.off {
    background: #ffebee;
    color: #c62828;
}

.demo-notice {
    position: fixed;
    top: 20px;
    right: 20px;
    background: rgba(255, 193, 7, 0.9);
    color: #856404;
    padding: 12px 16px;
    border-radius: 8px;
    font-weight: 500;
    font-size: 0.9rem;
    border: 1px solid rgba(255, 193, 7, 0.3);
}

@media (max-width: 768px) {
    .header h1 {
        font-size: 2rem;
    }

    .dashboard {
        grid-template-columns: 1fr;
        gap: 16px;
    }

    .card {
        padding: 20px;
    }
}
`
